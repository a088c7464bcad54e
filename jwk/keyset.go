// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jwk

import (
	"encoding/json"

	"github.com/go-jose/go-jose/v4"
)

// Kind records which form a secret was recognized as.
type Kind int

const (
	// KindSet is a complete JSON Web Key Set document.
	KindSet Kind = iota
	// KindKey is a single JSON Web Key document.
	KindKey
	// KindSymmetric is an opaque shared secret.
	KindSymmetric
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "jwks"
	case KindKey:
		return "jwk"
	default:
		return "symmetric"
	}
}

// BuildKeySet derives a key set from secret. The secret is tried as a key
// set document, then as a single key document, and otherwise its bytes
// become the material of a single symmetric key. It never fails.
func BuildKeySet(secret []byte) (*jose.JSONWebKeySet, Kind) {
	if set, ok := parseSet(secret); ok {
		return set, KindSet
	}
	if key, ok := parseKey(secret); ok {
		return &jose.JSONWebKeySet{Keys: []jose.JSONWebKey{key}}, KindKey
	}

	material := make([]byte, len(secret))
	copy(material, secret)
	return &jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{Key: material}},
	}, KindSymmetric
}

func parseSet(b []byte) (*jose.JSONWebKeySet, bool) {
	var probe map[string]json.RawMessage
	err := json.Unmarshal(b, &probe)
	if err != nil {
		return nil, false
	}
	if _, ok := probe["keys"]; !ok {
		return nil, false
	}

	var set jose.JSONWebKeySet
	err = json.Unmarshal(b, &set)
	if err != nil {
		return nil, false
	}
	return &set, true
}

func parseKey(b []byte) (jose.JSONWebKey, bool) {
	var key jose.JSONWebKey
	err := key.UnmarshalJSON(b)
	if err != nil || key.Key == nil {
		return jose.JSONWebKey{}, false
	}
	return key, true
}
