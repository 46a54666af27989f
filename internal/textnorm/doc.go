// Package textnorm provides the canonical comparison forms for caption text.
//
// Live caption regions re-render with unstable spacing, so equality and
// containment checks must run on a whitespace-free "compact" form while
// display output keeps the original spacing. The Compacted type carries the
// byte-level mapping between the two representations so anchor positions
// found in compact space can be sliced out of the original text without
// re-deriving offsets at each call site.
package textnorm
