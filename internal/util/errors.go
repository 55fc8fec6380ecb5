package util

import "errors"

var (
	ErrChallengeNotFound     = errors.New("задание не найдено")
	ErrChallengeSubmitted    = errors.New("отчёт по заданию уже отправлен")
	ErrChallengeNotAccepted  = errors.New("задание не было принято")
	ErrReportNotFound        = errors.New("отчёт не найден или уже обработан")
	ErrUserNotFound          = errors.New("пользователь не найден")
	ErrSelfFriendRequest     = errors.New("нельзя добавить себя в друзья")
	ErrAlreadyFriends        = errors.New("вы уже друзья")
	ErrDuplicateRequest      = errors.New("заявка уже отправлена")
	ErrRequestNotFound       = errors.New("заявка не найдена")
	ErrRequestAlreadyHandled = errors.New("заявка уже обработана")
	ErrWrongRequestTarget    = errors.New("заявка адресована другому пользователю")
	ErrNotAdmin              = errors.New("нет прав администратора")
	ErrInvalidPassword       = errors.New("неверный пароль")
	ErrNoCredentials         = errors.New("пароль для админ-панели не настроен")
	ErrInvalidToken          = errors.New("недействительный токен")
)
