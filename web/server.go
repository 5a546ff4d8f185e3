package web

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/rat_browser/rat"
	"github.com/mogaika/rat_browser/vfs"
)

// Server serves decoded rat models from one directory. Models are
// cached per chunk file; each model's decode state is guarded by the
// server lock since models do not lock internally.
type Server struct {
	dir    vfs.Directory
	mu     sync.Mutex
	models map[string]*rat.Model
}

func NewServer(d vfs.Directory) *Server {
	return &Server{
		dir:    d,
		models: make(map[string]*rat.Model),
	}
}

func (s *Server) model(name string) (*rat.Model, error) {
	if m, ok := s.models[name]; ok {
		return m, nil
	}
	m, err := rat.NewModelFromChunk(s.dir, name, nil)
	if err != nil {
		return nil, err
	}
	s.models[name] = m
	return m, nil
}

// listChunks returns the .rat files of the served directory.
func (s *Server) listChunks() ([]string, error) {
	files, err := s.dir.List()
	if err != nil {
		return nil, err
	}
	chunks := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".rat") {
			chunks = append(chunks, f)
		}
	}
	return chunks, nil
}

func (s *Server) Router(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/model", s.HandlerModelList)
	r.HandleFunc("/json/model/{file}", s.HandlerModelInfo)
	r.HandleFunc("/json/model/{file}/frame/{frame}", s.HandlerModelFrame)
	r.HandleFunc("/dump/model/{file}/obj", s.HandlerDumpObj)
	r.HandleFunc("/dump/model/{file}/gltf", s.HandlerDumpGLTF)
	r.HandleFunc("/ws/model/{file}", s.HandlerPlayback)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(webPath)))
	}
	return r
}

func StartServer(addr string, d vfs.Directory, webPath string) error {
	s := NewServer(d)

	h := handlers.RecoveryHandler()(s.Router(webPath))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
