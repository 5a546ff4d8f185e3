package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/rat_browser/webutils"
)

const playbackFrameDuration = time.Second / 30

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandlerPlayback streams the chunk's frames over a websocket at a
// fixed tick, looping until the client goes away.
func (s *Server) HandlerPlayback(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	s.mu.Lock()
	m, err := s.model(file)
	s.mu.Unlock()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// drain control frames so pings and close get processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frameCount := m.FrameCount()
	ticker := time.NewTicker(playbackFrameDuration)
	defer ticker.Stop()

	for frame := uint32(0); ; frame++ {
		if frameCount != 0 {
			frame %= frameCount
		} else {
			frame = 0
		}

		s.mu.Lock()
		m.UpdateFrame(frame)
		msg := &AjaxModelFrame{
			Frame:     m.CurrentFrame(),
			Positions: m.CurrentPositions(),
		}
		if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			s.mu.Unlock()
			return
		}
		err := conn.WriteJSON(msg)
		s.mu.Unlock()
		if err != nil {
			log.Printf("[web] ws write error: %v", err)
			return
		}

		<-ticker.C
	}
}

func init() {
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
}
