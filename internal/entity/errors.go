package entity

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrDuplicate     = errors.New("record already exists")
)
