package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func (ser server) uploadMetadata(w http.ResponseWriter, r *http.Request) {
	var document interface{}
	if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
		ser.badRequest(w, "failed to decode the metadata document: "+err.Error())
		return
	}
	if document == nil {
		ser.badRequest(w, "no JSON data given")
		return
	}

	cid, err := ser.app.UploadMetadata(r.Context(), document)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"cid": cid})
}

func (ser server) uploadFile(w http.ResponseWriter, r *http.Request) {
	// max file size is 10MB
	if err := r.ParseMultipartForm(10e7); err != nil {
		ser.badRequest(w, "failed to parse the form: "+err.Error())
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		ser.badRequest(w, "failed to get the file from form: "+err.Error())
		return
	}
	defer file.Close()

	ser.logger.Info(fmt.Sprintf("received file: %s, size %v", handler.Filename, handler.Size))

	cid, err := ser.app.UploadDocument(r.Context(), handler.Filename, file)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"cid": cid})
}

func (ser server) fetchMetadata(w http.ResponseWriter, r *http.Request) {
	cid := normalize(mux.Vars(r)["cid"])

	content, err := ser.app.FetchMetadata(r.Context(), cid)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(content); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

// downloadFile serves pinned file content as is, without the JSON
// round trip fetchMetadata does.
func (ser server) downloadFile(w http.ResponseWriter, r *http.Request) {
	cid := normalize(mux.Vars(r)["cid"])

	content, err := ser.app.FetchDocument(r.Context(), cid)
	if err != nil {
		ser.respondAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(content); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}
