// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/Jazz877/kleo-vesting/consts"

// Typed is implemented by every value that can be registered in a
// TypeParser.
type Typed interface {
	GetTypeID() uint8
}

type decoder[T Typed] struct {
	name string
	f    func(*Packer) (T, error)
}

// TypeParser maps type IDs to the functions that decode them.
type TypeParser[T Typed] struct {
	indexToDecoder map[uint8]decoder[T]
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{
		indexToDecoder: map[uint8]decoder[T]{},
	}
}

// Register adds [instance] under its type ID. [name] is the human readable
// identifier used by the JSON surfaces.
func (p *TypeParser[T]) Register(instance T, name string, f func(*Packer) (T, error)) error {
	if len(p.indexToDecoder) == int(consts.MaxUint8)+1 {
		return ErrTooManyItems
	}
	id := instance.GetTypeID()
	if _, ok := p.indexToDecoder[id]; ok {
		return ErrDuplicateItem
	}
	p.indexToDecoder[id] = decoder[T]{name: name, f: f}
	return nil
}

// LookupIndex returns the decoder registered for [index].
func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	d, ok := p.indexToDecoder[index]
	return d.f, ok
}

// LookupName returns the type ID registered with [name].
func (p *TypeParser[T]) LookupName(name string) (uint8, bool) {
	for id, d := range p.indexToDecoder {
		if d.name == name {
			return id, true
		}
	}
	return 0, false
}

// Name returns the name registered for [index].
func (p *TypeParser[T]) Name(index uint8) (string, bool) {
	d, ok := p.indexToDecoder[index]
	return d.name, ok
}
