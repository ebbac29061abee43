package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	recordIDLength    = 15
	accessTokenLength = 30
)

// GenerateID returns a new record identifier for deals, outlets and brands.
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, recordIDLength)
}

// GenerateAccessToken returns an opaque token used to gate outlet forms.
func GenerateAccessToken() (string, error) {
	return gonanoid.Generate(characters, accessTokenLength)
}
