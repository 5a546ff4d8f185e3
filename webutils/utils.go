package webutils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	io.Copy(w, in)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteResult(w, res)
}

func WriteResult(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func WriteError(w http.ResponseWriter, err error) {
	log.Printf("[web] Error handling request: %v", err)
	w.WriteHeader(http.StatusBadRequest)
	result, _ := json.Marshal(map[string]string{"error": err.Error()})
	WriteResult(w, result)
}
