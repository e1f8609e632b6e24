// Package notify sends transient desktop notifications through notify-send.
// Everything here is best-effort: a desktop without a notification daemon
// loses the messages, never the snap.
package notify

import (
	"log"
	"os/exec"
	"strconv"
	"time"
)

// expireTime is how long notifications stay on screen, in milliseconds.
const expireTime = 3000

// Sender shells out to notify-send when it is available.
type Sender struct {
	path    string
	enabled bool

	// run hook, swapped out by tests.
	run func(path string, args ...string)
}

// NewSender probes PATH for notify-send. A missing binary produces a
// disabled sender, not an error.
func NewSender() *Sender {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		log.Printf("Notify: notify-send not found, notifications disabled")
		return &Sender{}
	}
	return &Sender{path: path, enabled: true, run: runDetached}
}

// Notify shows a transient notification. It returns immediately; delivery
// happens on a background goroutine.
func (s *Sender) Notify(summary, body string) {
	if !s.enabled {
		return
	}
	s.run(s.path, "--app-name=snapzone", "--expire-time", strconv.Itoa(expireTime), summary, body)
}

func runDetached(path string, args ...string) {
	go func() {
		cmd := exec.Command(path, args...)
		if err := cmd.Start(); err != nil {
			log.Printf("Notify: %v", err)
			return
		}
		// Reap the child so it never lingers as a zombie.
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = cmd.Process.Kill()
			<-done
		}
	}()
}
