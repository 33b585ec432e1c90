package bot

import (
	"fmt"
	"strings"
)

const (
	CommandStart = "start"
	CommandTasks = "tasks"

	TriggerLabel = "🔥 Получить задания на сегодня"
)

const (
	textGreeting = "Привет! Я бот для подготовки к ЕГЭ по литературе.\n" +
		"Для начала введи свои Фамилию и Имя (например: Иванов Иван)."
	textNameRetry      = "Пожалуйста, введи и Фамилию, и Имя (два слова)."
	textNotRegistered  = "Сначала нужно зарегистрироваться. Отправь /start."
	textResume         = "🔄 Нашел незаконченные задания! Продолжаем..."
	textPlanComplete   = "✋ На сегодня план выполнен!\nВозвращайся завтра за новой порцией заданий."
	textNoTasks        = "На сегодня заданий больше нет. Приходи завтра!"
	textDebtHeader     = "⚠️ ДОЛГ С ПРОШЛОГО РАЗА"
	textShowPassage    = "📖 Показать текст"
	textHidePassage    = "📖 Скрыть текст"
	textPassageMissing = "Текст не найден"
	textAnswerAsText   = "Пожалуйста, пришли ответ текстом!"
	textStateLost      = "⚠️ Произошла ошибка состояния. Пожалуйста, нажми «" + TriggerLabel + "» заново."
	textCorrect        = "✅ Верно!"
	textIncorrect      = "❌ Неверно."
	textUnknown        = "😴 Бот был перезагружен и забыл контекст.\n\n" +
		"Пожалуйста, нажми кнопку «" + TriggerLabel + "», чтобы продолжить!"

	textMarkCorrect   = "✅ Отметить как правильное"
	textMarkIncorrect = "❌ Отметить как неправильное"
	textRetire        = "🗑 Удалить задание из БД"
	textRestore       = "♻️ Вернуть задание в базу"
	textNoAnswer      = "Нет ответа"

	textMarkedCorrect = "✅ ВЫ ИЗМЕНИЛИ ЭТОТ ОТВЕТ НА ПРАВИЛЬНЫЙ"
	textRetired       = "🗑 ЗАДАНИЕ УДАЛЕНО ИЗ БАЗЫ (СКРЫТО)"

	textGradeChanged    = "Статус ответа изменен"
	textQuestionChanged = "Статус задания изменен"
	textNotGraded       = "Ответ еще не проверен"
	textRecordMissing   = "Запись не найдена"
	textForbidden       = "Действие недоступно"
	textUnknownAction   = "Неизвестное действие"
)

const (
	learnerPassageLimit  = 3800
	operatorPassageLimit = 3000
	cardQuestionLimit    = 150
)

func textWelcomeBack(name string) string {
	return fmt.Sprintf("С возвращением, %s!", name)
}

func textRegistered(name string) string {
	return fmt.Sprintf("Приятно познакомиться, %s! Регистрация пройдена.", name)
}

func textTaskHeader(number, line int) string {
	return fmt.Sprintf("📝 Задание №%d (Линия %d)", number, line)
}

func textPassage(passage string) string {
	return "📜 Текст к заданию:\n\n" + truncate(passage, learnerPassageLimit)
}

func textFinished(correct, total int) string {
	return fmt.Sprintf("🏁 Задания на сегодня закончены!\nТвой результат: %d/%d\nЖду тебя завтра!", correct, total)
}

func textReportHeader(name string, correct, total int) string {
	return fmt.Sprintf("🔔 Новый отчет\n👤 Ученик: %s\n📊 Результат: %d/%d", name, correct, total)
}

// truncate cuts s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimRightFunc(string(r[:limit]), func(c rune) bool { return c == ' ' }) + "..."
}
