package workflow

// ErrValidation — ошибка проверки пользовательского ввода. Операция не
// выполнялась и ничего не изменила.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }
