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

// Message is the unit of communication between actors. A message is immutable
// once sent; re-targeting uses the shallow copy operations which preserve the
// payload, tag, interaction, protocol and domain.
type Message struct {
	value       any
	tag         int32
	source      ID
	dest        ID
	interaction ID
	protocol    string
	domain      string
}

// MessageOption configures optional message fields at construction time.
type MessageOption func(*Message)

// WithSource sets the sender identity.
func WithSource(source ID) MessageOption {
	return func(m *Message) {
		m.source = source
	}
}

// WithDest sets the destination identity.
func WithDest(dest ID) MessageOption {
	return func(m *Message) {
		m.dest = dest
	}
}

// WithInteraction sets the correlation identity used by request/reply.
func WithInteraction(interaction ID) MessageOption {
	return func(m *Message) {
		m.interaction = interaction
	}
}

// WithProtocol sets the user-level protocol marker.
func WithProtocol(protocol string) MessageOption {
	return func(m *Message) {
		m.protocol = protocol
	}
}

// WithDomain sets the user-level domain marker.
func WithDomain(domain string) MessageOption {
	return func(m *Message) {
		m.domain = domain
	}
}

// NewMessage creates a message with the given payload and tag.
func NewMessage(value any, tag int32, opts ...MessageOption) *Message {
	msg := &Message{
		value: value,
		tag:   tag,
	}
	for _, opt := range opts {
		opt(msg)
	}
	return msg
}

// Value returns the type-erased payload.
func (m *Message) Value() any {
	return m.value
}

// Tag returns the message tag.
func (m *Message) Tag() int32 {
	return m.tag
}

// Source returns the sender identity, NoID when absent.
func (m *Message) Source() ID {
	return m.source
}

// Dest returns the destination identity, NoID when absent.
func (m *Message) Dest() ID {
	return m.dest
}

// Interaction returns the correlation identity, NoID when absent.
func (m *Message) Interaction() ID {
	return m.interaction
}

// Protocol returns the user-level protocol marker.
func (m *Message) Protocol() string {
	return m.protocol
}

// Domain returns the user-level domain marker.
func (m *Message) Domain() string {
	return m.domain
}

// ShallowCopy returns a copy of the message re-targeted with a new source and
// destination. Payload, tag, interaction, protocol and domain are preserved.
func (m *Message) ShallowCopy(source, dest ID) *Message {
	copied := *m
	copied.source = source
	copied.dest = dest
	return &copied
}

// ShallowCopyDest returns a copy of the message re-targeted with a new
// destination, keeping the original source. Payload, tag, interaction,
// protocol and domain are preserved.
func (m *Message) ShallowCopyDest(dest ID) *Message {
	copied := *m
	copied.dest = dest
	return &copied
}
