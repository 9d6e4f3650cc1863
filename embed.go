package filterbox

import "embed"

// EmbeddedAssets contains the static assets served under /public/:
// editor.js, editor.css, upload.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
