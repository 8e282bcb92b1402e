// Package config loads the launcher inputs the render driver receives
// from its environment: task identifier, server URI, auth token,
// chunk-size override, geom backend selector. An optional
// operator.toml supplies defaults; environment variables layer on top,
// following the read side of noisetorch's config.go (BurntSushi toml,
// silent if the file is simply absent, an error if it is malformed).
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Backend names the rasterizer backend selector the launcher passes
// through. This worker only ever implements BackendCPU; BackendGPU is
// declared so the config surface round-trips a value the platform may
// send without the worker rejecting it outright.
type Backend string

const (
	BackendCPU Backend = "cpu"
	BackendGPU Backend = "gpu"
)

// File is the optional on-disk configuration, read once at startup.
type File struct {
	ChunkSize int    `toml:"chunk_size"`
	Backend   string `toml:"backend"`
}

// Load reads path if it exists; a missing file is not an error (it
// simply means every field falls back to environment/defaults), but a
// malformed file is.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return f, nil
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Env carries the environment-sourced launcher inputs: task
// identifier, server URI, auth token, chunk-size override, backend
// selector.
type Env struct {
	TaskID      string
	ServerURI   string
	AuthToken   string
	ChunkSize   int
	Backend     Backend
}

// names of the environment variables this worker reads.
const (
	envTaskID    = "TERCEN_TASK_ID"
	envServerURI = "TERCEN_SERVER_URI"
	envAuthToken = "TERCEN_AUTH_TOKEN"
	envChunkSize = "TERCEN_CHUNK_SIZE"
	envBackend   = "TERCEN_BACKEND"
)

// LoadEnv reads the launcher environment, layering it over fileCfg
// (environment wins when both are set).
func LoadEnv(fileCfg File) Env {
	e := Env{
		TaskID:    os.Getenv(envTaskID),
		ServerURI: os.Getenv(envServerURI),
		AuthToken: os.Getenv(envAuthToken),
		ChunkSize: fileCfg.ChunkSize,
		Backend:   Backend(fileCfg.Backend),
	}
	if e.Backend == "" {
		e.Backend = BackendCPU
	}
	if v := os.Getenv(envChunkSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.ChunkSize = n
		}
	}
	if v := os.Getenv(envBackend); v != "" {
		e.Backend = Backend(v)
	}
	return e
}
