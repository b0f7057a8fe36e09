// Package model defines the form model derived from template markup. Each
// placeholder token becomes one Field; fields keep the order in which their ids
// first appear in the markup and that order drives both form layout and the
// field list cached on templates. Values decodes submission data into the
// shapes the renderers expect (plain strings, images, image lists and string
// lists) regardless of whether the data arrived from JSON, YAML or Go code.
package model
