// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional fields of partial updates.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Or returns *p, or current when p is nil. PATCH inputs use it to keep
// fields the client did not send.
func Or[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
