package main

import (
	"fmt"
	"time"

	"invui/internal/demo"
	"invui/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sirupsen/logrus"
)

func runLoop(window *glfw.Window, s *demo.Session, tickRate int, log logrus.FieldLogger) {
	tick := time.Second / time.Duration(tickRate)
	lastTick := time.Now()
	title := ""

	for !window.ShouldClose() {
		func() { defer profiling.Track("glfw.WaitEvents")(); glfw.WaitEventsTimeout(tick.Seconds()) }()

		now := time.Now()
		if now.Sub(lastTick) < tick {
			continue
		}
		lastTick = now

		redrawn := s.Window.Scheduler().Tick()
		if d := time.Since(now); d > tick {
			log.Warnf("Slow tick: %v (%d redraws). Top tasks: %s", d, redrawn, profiling.TopN(5))
		}
		profiling.Reset()

		// Show the cursor stack in the title bar.
		next := "invui"
		if held := s.Window.Held(); held != nil {
			next = fmt.Sprintf("invui - holding %s", held)
		}
		if next != title {
			title = next
			window.SetTitle(title)
		}
	}
}
