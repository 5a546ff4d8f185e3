package web

import (
	"bytes"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/rat"
	"github.com/mogaika/rat_browser/webutils"
)

type AjaxModelInfo struct {
	ChunkFile       string
	MeshFile        string
	TextureFile     string
	VerticesCount   uint32
	FramesCount     uint32
	IndicesCount    uint32
	Range           rat.QuantRange
	IsFirstFrameRaw bool
	CurrentFrame    uint32
}

type AjaxModelFrame struct {
	Frame     uint32
	Positions []mgl32.Vec3
}

func (s *Server) HandlerModelList(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.listChunks()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	sort.Strings(chunks)
	webutils.WriteJson(w, chunks)
}

func (s *Server) HandlerModelInfo(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.model(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	webutils.WriteJson(w, &AjaxModelInfo{
		ChunkFile:       file,
		MeshFile:        m.Animation.MeshFileName,
		TextureFile:     m.Mesh.TextureFileName,
		VerticesCount:   m.Animation.VerticesCount,
		FramesCount:     m.Animation.FramesCount,
		IndicesCount:    m.Mesh.IndicesCount,
		Range:           m.Animation.Range,
		IsFirstFrameRaw: m.Animation.IsFirstFrameRaw,
		CurrentFrame:    m.CurrentFrame(),
	})
}

func (s *Server) HandlerModelFrame(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	frameParam := mux.Vars(r)["frame"]

	frame, err := strconv.ParseUint(frameParam, 10, 32)
	if err != nil {
		webutils.WriteError(w, errors.Errorf("Frame %q is not an integer", frameParam))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.model(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	m.UpdateFrame(uint32(frame))
	webutils.WriteJson(w, &AjaxModelFrame{
		Frame:     m.CurrentFrame(),
		Positions: m.CurrentPositions(),
	})
}

func (s *Server) HandlerDumpObj(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.model(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := m.ExportObj(&buf); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, file+".obj")
}

func (s *Server) HandlerDumpGLTF(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.model(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := m.ExportGLTFBinary(&buf); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, file+".glb")
}
