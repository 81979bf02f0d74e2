// Package io provides the collaborators at the boundary of the LS-8
// machine: the program image loader (Rom) and the PRN output device (Tape).
package io
