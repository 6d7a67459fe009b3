package pipeline

import "errors"

func requireNonEmptyString(value string, message string) error {
	if value == "" {
		return errors.New(message)
	}
	return nil
}
