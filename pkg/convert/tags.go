// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/pkg/errors"
)

// TagStore associates each Value of a conversion with its layout tag.
//
// Tags are set once: setting the same tag again is a no-op, and setting a different tag on an already tagged
// value panics, since a value's layout is fixed when it is created.
//
// A TagStore is owned by one conversion and is not safe for concurrent use.
type TagStore struct {
	tags map[*Value]layout.Tag
}

// NewTagStore returns an empty TagStore.
func NewTagStore() *TagStore {
	return &TagStore{tags: make(map[*Value]layout.Tag)}
}

// Get returns the tag of v, or an *UntaggedTensorError if it was never set.
func (s *TagStore) Get(v *Value) (layout.Tag, error) {
	tag, found := s.tags[v]
	if !found {
		return 0, &UntaggedTensorError{Value: v.String()}
	}
	return tag, nil
}

// MustGet is like Get, but panics with the *UntaggedTensorError.
func (s *TagStore) MustGet(v *Value) layout.Tag {
	tag, err := s.Get(v)
	if err != nil {
		panic(errors.WithStack(err))
	}
	return tag
}

// Has returns whether v has been tagged.
func (s *TagStore) Has(v *Value) bool {
	_, found := s.tags[v]
	return found
}

// Set the tag of v. It panics if v already has a different tag.
func (s *TagStore) Set(v *Value, tag layout.Tag) {
	if current, found := s.tags[v]; found {
		if current != tag {
			exceptions.Panicf("TagStore.Set(%s, %s): value already tagged %s", v, tag, current)
		}
		return
	}
	s.tags[v] = tag
}

// Len returns the number of tagged values.
func (s *TagStore) Len() int { return len(s.tags) }
