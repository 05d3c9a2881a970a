// Package dto holds the JSON shapes of the ChurchTools REST API and their
// conversion into model types.
package dto
