package i18n

// Message keys shared by the server and the client.
const (
	KeyInvalidBody       = "request.invalid_body"
	KeyEmailInvalid      = "validation.email_invalid"
	KeyEmailTooLong      = "validation.email_too_long"
	KeyCompanyRequired   = "validation.company_required"
	KeyCompanyTooLong    = "validation.company_too_long"
	KeyCommentTooLong    = "validation.comment_too_long"
	KeySubmitReceived    = "submit.received"
	KeySubmitSaveFailed  = "submit.save_failed"
	KeySubmitSent        = "submit.sent"
	KeySubmitOffline     = "submit.saved_offline"
	KeySubmitFailed      = "submit.failed"
	KeyPasswordRequired  = "auth.password_required"
	KeyPasswordIncorrect = "auth.password_incorrect"
	KeyAccessGranted     = "auth.access_granted"
	KeyOverlayLocked     = "overlay.locked"
	KeyOverlayNotConfig  = "overlay.not_configured"
	KeyOverlayUnavail    = "overlay.unavailable"
	KeyOverlayDegraded   = "overlay.degraded"
	KeyOverlayLoadFailed = "overlay.load_failed"
	KeyTableEmpty        = "table.empty"
	KeyLoadFailed        = "server.load_failed"
	KeyInternal          = "server.internal"
	KeyNotFound          = "server.not_found"
	KeyPageTitle         = "page.title"
	KeyFormEmail         = "form.email"
	KeyFormCompany       = "form.company"
	KeyFormComment       = "form.comment"
	KeyFormSubmit        = "form.submit"
	KeyAdminTitle        = "admin.title"
	KeyAdminPassword     = "admin.password"
	KeyAdminUnlock       = "admin.unlock"
	KeyColumnCreated     = "column.created"
	KeyColumnCountry     = "column.country"
	KeyColumnSource      = "column.source"
)

var english = map[string]string{
	KeyInvalidBody:       "Invalid request body.",
	KeyEmailInvalid:      "Please provide a valid email address.",
	KeyEmailTooLong:      "Email address is too long.",
	KeyCompanyRequired:   "Company is required.",
	KeyCompanyTooLong:    "Company name is too long.",
	KeyCommentTooLong:    "Comment is too long.",
	KeySubmitReceived:    "Request received.",
	KeySubmitSaveFailed:  "Unable to save your request.",
	KeySubmitSent:        "All set! We just confirmed via email.",
	KeySubmitOffline:     "The service is unavailable. Your request was saved locally and has not been delivered yet.",
	KeySubmitFailed:      "Unable to submit the request.",
	KeyPasswordRequired:  "Administrator password required.",
	KeyPasswordIncorrect: "Incorrect password.",
	KeyAccessGranted:     "Access granted.",
	KeyOverlayLocked:     "Table locked. Enter the administrator password.",
	KeyOverlayNotConfig:  "No applications service is configured.",
	KeyOverlayUnavail:    "The applications service is unavailable.",
	KeyOverlayDegraded:   "Service unavailable. Showing locally cached requests; they may be out of date.",
	KeyOverlayLoadFailed: "Unable to load requests.",
	KeyTableEmpty:        "No requests yet.",
	KeyLoadFailed:        "Unable to load applications.",
	KeyInternal:          "Internal server error.",
	KeyNotFound:          "Not found.",
	KeyPageTitle:         "Run a pilot with MB3R Lab",
	KeyFormEmail:         "Work email",
	KeyFormCompany:       "Company",
	KeyFormComment:       "Comment",
	KeyFormSubmit:        "Request a pilot",
	KeyAdminTitle:        "Pilot requests",
	KeyAdminPassword:     "Administrator password",
	KeyAdminUnlock:       "Unlock",
	KeyColumnCreated:     "Created",
	KeyColumnCountry:     "Country",
	KeyColumnSource:      "Source",
}

var russian = map[string]string{
	KeyInvalidBody:       "Некорректный запрос.",
	KeyEmailInvalid:      "Укажите корректный email.",
	KeyEmailTooLong:      "Слишком длинный email.",
	KeyCompanyRequired:   "Поле \"Компания\" обязательно.",
	KeyCompanyTooLong:    "Слишком длинное название компании.",
	KeyCommentTooLong:    "Слишком длинный комментарий.",
	KeySubmitReceived:    "Заявка отправлена.",
	KeySubmitSaveFailed:  "Не удалось сохранить заявку.",
	KeySubmitSent:        "Готово! Мы отправили подтверждение на почту.",
	KeySubmitOffline:     "Сервис недоступен. Заявка сохранена локально и пока не отправлена.",
	KeySubmitFailed:      "Не удалось отправить заявку.",
	KeyPasswordRequired:  "Требуется пароль администратора.",
	KeyPasswordIncorrect: "Неверный пароль.",
	KeyAccessGranted:     "Доступ разрешён.",
	KeyOverlayLocked:     "Таблица заблокирована. Введите пароль администратора.",
	KeyOverlayNotConfig:  "Сервис заявок не настроен.",
	KeyOverlayUnavail:    "Сервис заявок недоступен.",
	KeyOverlayDegraded:   "Сервис недоступен. Показаны локально сохранённые заявки, они могут быть неактуальны.",
	KeyOverlayLoadFailed: "Не удалось загрузить заявки.",
	KeyTableEmpty:        "Заявок пока нет.",
	KeyLoadFailed:        "Не удалось загрузить заявки.",
	KeyInternal:          "Внутренняя ошибка сервера.",
	KeyNotFound:          "Не найдено.",
	KeyPageTitle:         "Пилот с MB3R Lab",
	KeyFormEmail:         "Рабочий email",
	KeyFormCompany:       "Компания",
	KeyFormComment:       "Комментарий",
	KeyFormSubmit:        "Запросить пилот",
	KeyAdminTitle:        "Заявки на пилот",
	KeyAdminPassword:     "Пароль администратора",
	KeyAdminUnlock:       "Открыть",
	KeyColumnCreated:     "Создана",
	KeyColumnCountry:     "Страна",
	KeyColumnSource:      "Источник",
}
