package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/container"
	"github.com/qkepia/muhpixels/pipeline"
	"github.com/qkepia/muhpixels/sink"
)

var errInvalidName = errors.New("invalid file name")

// FileInfo describes a decoded file.
type FileInfo struct {
	Name      string `json:"name"`
	Container string `json:"container"`
	Codec     string `json:"codec"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	// FrameRate is empty if the container does not declare one.
	FrameRate string `json:"frameRate,omitempty"`
	Units     int    `json:"units"`
	Frames    int    `json:"frames"`
	Corrupted int    `json:"corrupted"`
}

// API previews the video files in one directory.
type API struct {
	logger *slog.Logger
	root   string
	opts   []pipeline.Option
}

// NewApi serves the files in root, decoding them with a pipeline configured
// by opts.
func NewApi(root string, opts ...pipeline.Option) *API {
	return &API{
		logger: slog.Default(),
		root:   root,
		opts:   opts,
	}
}

func (a *API) RegisterRoutes(mux *httprouter.Router) {
	mux.HandlerFunc("GET", "/api/v1/files", a.ListFiles)
	mux.HandlerFunc("GET", "/api/v1/files/:name", a.GetFile)
	mux.HandlerFunc("GET", "/api/v1/files/:name/frame.png", a.GetFrame)
}

func (a *API) ListFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		a.writeError(w, err)
		return
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	a.writeJSON(w, names)
}

func (a *API) GetFile(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	res, err := a.decode(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	info := FileInfo{
		Name:      name,
		Container: res.Kind.String(),
		Codec:     res.Descriptor.Fourcc.String(),
		Width:     res.Descriptor.Width,
		Height:    res.Descriptor.Height,
		Units:     res.Stats.UnitsIn,
		Frames:    res.Stats.Frames,
		Corrupted: res.Stats.Corrupted,
	}
	if num, den := res.Descriptor.FrameRate(0, 0); num > 0 {
		info.FrameRate = fmt.Sprintf("%d/%d", num, den)
	}
	a.writeJSON(w, info)
}

func (a *API) GetFrame(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("name")
	res, err := a.decode(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if res.Frame == nil {
		http.Error(w, "file has no decodable frames", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := sink.EncodePNG(&buf, res.Frame); err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Error("failed to write frame", "name", name, "error", err)
	}
}

func (a *API) decode(name string) (*pipeline.Result, error) {
	if name == "" || !filepath.IsLocal(name) || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return nil, errInvalidName
	}
	opts := append([]pipeline.Option{pipeline.WithLogger(a.logger.With("file", name))}, a.opts...)
	return pipeline.Decode(filepath.Join(a.root, name), opts...)
}

func (a *API) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, container.ErrUnrecognizedContainer),
		errors.Is(err, container.ErrNoVideoTrack),
		errors.Is(err, codec.ErrUnsupportedCodec):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
