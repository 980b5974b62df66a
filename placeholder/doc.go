// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package placeholder converts translatable messages between their structured
form, a sequence of text and named parameters, and the flat placeholder string
stored in gettext catalogues.

# Placeholder strings

A parameter without body content is written as {name}. A parameter that wraps
some text is written as {name}body{/name}:

	Hello, {name}!
	Read the {link}documentation{/link} first.

[Flatten] produces such strings from nodes, [Parse] turns them back into a
tree of nodes, and [Interpolate] substitutes plain values into a string when no
tree needs to be rebuilt.

# Limitations

[Parse] only recognises parameter names made of ASCII lowercase letters and
does not support literal braces in text. Strings written by [Flatten] from such
names never hit these cases, but hand-edited catalogue entries may.
*/
package placeholder
