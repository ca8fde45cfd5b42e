// Package common contains shared constants, sentinel errors and small helpers
// used across DocDrop components.
package common

// TokenFieldName is the form/query field that carries the session token.
const TokenFieldName = "token"

// AllowedExtensions lists the document types ops users may upload.
var AllowedExtensions = []string{"pptx", "docx", "xlsx"}
