package service

import "errors"

var (
	// ErrEmptyListName is returned when a list is created or renamed with a
	// blank name.
	ErrEmptyListName = errors.New("shopping list name must not be empty")

	// ErrEmptyDescription is returned when an item is created with a blank
	// description.
	ErrEmptyDescription = errors.New("shopping list item description must not be empty")

	// ErrNoOwner is returned when an operation that is scoped per user is
	// called without a user identifier.
	ErrNoOwner = errors.New("no owner user id provided")
)
