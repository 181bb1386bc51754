// Package model defines the plain records shared by the builder, validator,
// renderers and storage layers: Form, Field, Entry and the FieldDraft used
// while authoring a field. Entry values are modelled as a tagged union
// (Value) keyed by the field type that produced them, so text-like inputs
// carry strings, checkboxes carry booleans and file inputs carry FileMeta.
// File contents are never represented; only the metadata a browser exposes
// (name, size, MIME type, last modified timestamp) is retained.
package model
