// Package internal documents the events platform client internals.
//
// The internal tree is organized by responsibility:
// - cms: thin HTTP transport for the CMS API
// - domain: shape adaptation and domain models (events, users)
// - richtext, media: content normalization helpers
// - session: persisted authentication state
// - accounts: account and accessibility flows on top of cms and session
// - config, metrics: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
