package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu       UserState = "main_menu"       // В главном меню
	StateAwaitingSelfie UserState = "awaiting_selfie" // Ожидание фото лица
	StateProcessing     UserState = "processing"      // Идёт анализ кожи
)

// User представляет пользователя бота
type User struct {
	ID       int64     // Telegram User ID
	ChatID   int64     // Telegram Chat ID
	State    UserState // Текущее состояние пользователя
	Analyses int       // Сколько анализов выполнено
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// CanAcceptPhoto сообщает, ждёт ли бот фото от пользователя.
// Фото в главном меню тоже принимается, чтобы не заставлять вводить /analyze.
func (u *User) CanAcceptPhoto() bool {
	return u.State == StateAwaitingSelfie || u.State == StateMainMenu
}
