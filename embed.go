package folio

import "embed"

// EmbeddedAssets contains static assets shipped with folio: the default
// stylesheet (site.css) and favicon (favicon.svg).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
