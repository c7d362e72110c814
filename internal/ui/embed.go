// Package ui bundles the static panel assets served before login.
package ui

import _ "embed"

//go:embed login.html
var LoginPage []byte

//go:embed sha3.min.js
var SHA3Script []byte
