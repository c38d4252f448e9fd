// MIT License
//
// Copyright (c) 2026 Kestrel Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

// spawnConfig carries the per-actor registration settings.
type spawnConfig struct {
	name       string
	group      *Group
	resource   bool
	system     bool
	mailbox    Mailbox
	supervisor *Supervisor
	alias      string
}

// SpawnOption configures actor registration.
type SpawnOption func(*spawnConfig)

// WithName assigns a human name. Sibling names must be unique; the name
// becomes the last segment of the actor's registry path.
func WithName(name string) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.name = name
	}
}

// WithGroup places the actor according to the group's affinity policy.
func WithGroup(group *Group) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.group = group
	}
}

// WithResource marks the actor as blocking/IO: its handler runs on the
// resource executor instead of a worker.
func WithResource() SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.resource = true
	}
}

// WithMailbox overrides the actor's normal mailbox.
func WithMailbox(mailbox Mailbox) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.mailbox = mailbox
	}
}

// WithSupervisor overrides the strategy this actor applies to its failing
// children.
func WithSupervisor(supervisor *Supervisor) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.supervisor = supervisor
	}
}

// WithAlias binds the alias to the actor at registration time.
func WithAlias(alias string) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.alias = alias
	}
}

func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	cfg := &spawnConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
