// Package model describes the base objects manipulated by obproject.
//
// The package exposes a model for registry metadata.
//
// The object model for obproject is composed of:
//
//	Projects:
//	  A project is the unit of ownership for assets. Every asset, branch
//	  and run record belongs to exactly one project.
//
//	Branches:
//	  A branch is an isolated namespace for asset writes within a project,
//	  analogous to a git branch. Examples: prod, test.feature, user.alice.
//
//	Assets:
//	  An asset is a named, typed (data or model) unit of persisted content.
//	  Every registration creates an immutable version; a mutable head
//	  pointer per branch names the latest version.
//
//	Runs:
//	  A run records one execution of a flow, with per step status.
package model
