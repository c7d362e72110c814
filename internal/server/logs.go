package server

import (
	"bufio"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"xunlei/internal/constants"
)

var logsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The endpoint sits behind the session check already.
		return true
	},
}

// handleLauncherLogs tails the daemon launch log over a websocket so the
// panel can show live backend output without shell access to the host.
func (s *Server) handleLauncherLogs(w http.ResponseWriter, r *http.Request) {
	conn, err := logsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	file, err := os.Open(constants.LaunchLogFile)
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("log file unavailable: "+err.Error()))
		return
	}
	defer file.Close()

	// Only new output is streamed.
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("log file unavailable: "+err.Error()))
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var pending string
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for {
				chunk, readErr := reader.ReadString('\n')
				pending += chunk
				if strings.HasSuffix(pending, "\n") {
					line := strings.TrimRight(pending, "\n")
					pending = ""
					if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
						return
					}
				}
				if readErr != nil {
					// EOF: wait for the daemon to append more.
					break
				}
			}
		}
	}
}
