package types

import "time"

// Kind selects which cache subtree and remote endpoint a package lives
// under: importable libraries versus runnable programs.
type Kind string

const (
	KindLib Kind = "lib"
	KindRun Kind = "run"
)

// Descriptor is the immutable identity of one package: its name plus
// its kind. It is created once per sync request and never mutated.
type Descriptor struct {
	Name string
	Kind Kind
}

// RemoteInfo is the version report returned by the server's info and
// watch commands. It is fetched fresh per sync attempt and never
// persisted.
type RemoteInfo struct {
	Version string    `json:"version"`
	Date    time.Time `json:"date"`
}

// Settings holds the shared secret and server address loaded from the
// config file at startup. Constructed once, passed by value into every
// transport and crypto instance.
type Settings struct {
	Secret string `yaml:"secret"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
}
