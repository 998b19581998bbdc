// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug

package compose

// Debug causes internal invariant violations to panic instead of
// being logged and self-healed.
const Debug = true
