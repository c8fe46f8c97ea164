// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses URL path parameters into the numeric keys used by the
catalogue and social tables.
*/
package convert

import "strconv"

// ToID parses a positive int64 key. The second result is false for empty,
// malformed, zero or negative input.
func ToID(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

