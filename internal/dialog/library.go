package dialog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"mattersend/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed dialogs.yaml
var builtinDialogs []byte

// file is the YAML layout shared by the embedded table and user dialog files.
type file struct {
	Success []domain.Dialog `yaml:"success"`
	Fail    []domain.Dialog `yaml:"fail"`
}

// Library holds the success and failure dialogs. It is never mutated after
// construction; only the random source advances.
type Library struct {
	success []domain.Dialog
	fail    []domain.Dialog
	rng     *rand.Rand
}

// Option customizes a Library.
type Option func(*Library)

// WithRand sets the random source used by RandomDialog.
func WithRand(r *rand.Rand) Option {
	return func(l *Library) { l.rng = r }
}

// WithSeed is shorthand for a reproducible PCG source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Builtin returns the library compiled into the binary.
func Builtin(opts ...Option) *Library {
	l, err := Parse(builtinDialogs, opts...)
	if err != nil {
		panic(fmt.Sprintf("dialog: embedded dialogs are invalid: %v", err))
	}
	return l
}

// LoadFile reads a YAML dialog file with the same layout as the built-in table.
func LoadFile(path string, opts ...Option) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: dialogs file %s: %v", domain.ErrSourceRead, path, err)
	}
	l, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("dialogs file %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes and validates a YAML dialog table.
func Parse(data []byte, opts ...Option) (*Library, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return nil, fmt.Errorf("%w: invalid dialog YAML: %v", domain.ErrSourceRead, err)
	}
	if err := validateSet("success", f.Success); err != nil {
		return nil, err
	}
	if err := validateSet("fail", f.Fail); err != nil {
		return nil, err
	}

	l := &Library{
		success: f.Success,
		fail:    f.Fail,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return l, nil
}

func validateSet(name string, dialogs []domain.Dialog) error {
	if len(dialogs) == 0 {
		return fmt.Errorf("%w: no %s dialogs defined", domain.ErrValidation, name)
	}
	for i, d := range dialogs {
		if len(d) == 0 {
			return fmt.Errorf("%w: %s dialog #%d is empty", domain.ErrValidation, name, i)
		}
		for j, line := range d {
			if strings.TrimSpace(line.Avatar) == "" {
				return fmt.Errorf("%w: %s dialog #%d line %d has no avatar", domain.ErrValidation, name, i, j)
			}
			if strings.TrimSpace(line.Message) == "" {
				return fmt.Errorf("%w: %s dialog #%d line %d has no message", domain.ErrValidation, name, i, j)
			}
		}
	}
	return nil
}

// RandomDialog picks one dialog from the success or failure set, each with
// equal probability. The returned dialog is a copy.
func (l *Library) RandomDialog(success bool) domain.Dialog {
	set := l.set(success)
	return slices.Clone(set[l.rng.IntN(len(set))])
}

// Dialogs returns a copy of the success or failure set.
func (l *Library) Dialogs(success bool) []domain.Dialog {
	set := l.set(success)
	out := make([]domain.Dialog, len(set))
	for i, d := range set {
		out[i] = slices.Clone(d)
	}
	return out
}

// Avatars lists every avatar name the library speaks through, sorted.
func (l *Library) Avatars() []string {
	seen := make(map[string]bool)
	var names []string
	for _, set := range [][]domain.Dialog{l.success, l.fail} {
		for _, d := range set {
			for _, line := range d {
				if !seen[line.Avatar] {
					seen[line.Avatar] = true
					names = append(names, line.Avatar)
				}
			}
		}
	}
	slices.Sort(names)
	return names
}

func (l *Library) set(success bool) []domain.Dialog {
	if success {
		return l.success
	}
	return l.fail
}
