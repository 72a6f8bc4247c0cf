package entity

import "errors"

var (
	// ErrNoFaceDetected на изображении не найдено ни одного лица.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrInvalidImage изображение не декодируется или имеет нулевой размер.
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmptyRegion область лица не содержит пикселей (крайний ракурс).
	ErrEmptyRegion = errors.New("empty region")
	// ErrInsufficientData для сравнения нужно минимум два результата.
	ErrInsufficientData = errors.New("insufficient data for comparison")
)
