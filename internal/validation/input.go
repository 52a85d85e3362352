package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxRiderIDLength       = 64
	MaxRiderNameLength     = 100
	MaxTransactionIDLength = 100
	MaxNotesLength         = 1000
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateNoControlChars запрещает управляющие символы в однострочных полях.
func ValidateNoControlChars(fieldName, value string) error {
	for _, r := range value {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s содержит недопустимые символы", fieldName)
		}
	}
	return nil
}

// ValidateRiderName проверяет имя курьера в заявке.
func ValidateRiderName(name string) error {
	if err := ValidateNonEmpty("имя курьера", name); err != nil {
		return err
	}
	if err := ValidateLength("имя курьера", name, 0, MaxRiderNameLength); err != nil {
		return err
	}
	return ValidateNoControlChars("имя курьера", name)
}

// ValidateRiderID проверяет идентификатор курьера.
func ValidateRiderID(riderID string) error {
	if err := ValidateNonEmpty("идентификатор курьера", riderID); err != nil {
		return err
	}
	if err := ValidateLength("идентификатор курьера", riderID, 0, MaxRiderIDLength); err != nil {
		return err
	}
	return ValidateNoControlChars("идентификатор курьера", riderID)
}

// ValidateTransactionID проверяет номер платёжной транзакции.
func ValidateTransactionID(ref string) error {
	if err := ValidateLength("номер транзакции", ref, 0, MaxTransactionIDLength); err != nil {
		return err
	}
	return ValidateNoControlChars("номер транзакции", ref)
}

// ValidateNotes проверяет комментарий администратора. Переносы строк допустимы.
func ValidateNotes(notes string) error {
	return ValidateLength("комментарий", notes, 0, MaxNotesLength)
}
