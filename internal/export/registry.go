package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter writes a finalized channel set to a destination encoding.
type Exporter interface {
	Name() string
	Extension() string
	Export(ctx context.Context, set *channel.Set, w io.Writer, opts Options) error
}

var (
	regMu    sync.RWMutex
	registry = map[string]Exporter{}
)

// Register stores an exporter under its name. Registering the same name
// twice panics.
func Register(exp Exporter) {
	regMu.Lock()
	defer regMu.Unlock()
	name := strings.ToLower(exp.Name())
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("export: exporter %q registered twice", name))
	}
	registry[name] = exp
}

// Lookup returns the exporter registered under name.
func Lookup(name string) (Exporter, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	exp, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, name, strings.Join(namesLocked(), ", "))
	}
	return exp, nil
}

// Names lists registered exporter names in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
