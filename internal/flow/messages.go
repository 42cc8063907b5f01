package flow

// Bot copy. Question texts live in the database; these are the fixed
// surrounding messages of the onboarding flow.
const (
	welcomeMessage = `<b>Привет, дорогой друг!</b> 👋

Тебя приветствует бот школы <b>«Новые грани»</b>.

Обычно в этот бот случайно не попадают. Если ты хочешь стать частью команды или уже являешься ей, пиши /start и поехали!`

	teamQuestionMessage = `Ты уже являешься частью команды <b>«Новые грани»</b>?`

	positionQuestionMessage = `На какой позиции ты работаешь в школе <b>«Новые грани»</b>?`

	notTeamMemberMessage = `Спасибо за интерес! Этот бот предназначен для членов команды. ` +
		`Если хочешь присоединиться к нам, напиши /start когда будешь готов.`

	alreadyCompleteMessage = `🎉 <b>С возвращением!</b>

Ты уже завершил регистрацию. Если хочешь обновить данные, свяжись с администратором.`

	missionMessage = `<b>Отлично! Давай мы немножко расскажем о себе, а ты — о себе.</b>

Мы – команда увлеченных людей. Будем вместе создавать новое, экспериментировать и творить, развивая себя.

<b>Наша Миссия</b>
Мы помогаем людям раскрывать новые грани себя и своей жизни через метафизические и психоэзотерические инструменты. Наша миссия — давать глубокое знание, которое позволяет понимать свои внутренние процессы, улучшать ментальное и энергетическое состояние и становиться авторами собственной жизни.`

	valuesMessage = `<b>А теперь о наших ценностях:</b>

✨ <b>Осознанность</b> — понимание себя, своих состояний и причин происходящего.

💎 <b>Честность с собой</b> — способность встречаться с истинными мотивами, страхами и желаниями.

🔮 <b>Целостность</b> — внимание ко всем аспектам человека: ментальному, энергетическому, эмоциональному и физическому.

💪 <b>Ответственность</b> — способность быть автором своей жизни и действий.

📈 <b>Развитие</b> — постоянный рост, исследование, обучение, поиски новых смыслов и готовность двигаться к новому.

💚 <b>Забота</b> — уважение к пути каждого человека, поддержка, экологичность. Комьюнити.

🌊 <b>Глубина</b> — ориентация на внутренние трансформации, а не поверхностные изменения.

⚡ <b>Скорость и Безопасность</b> — создание и использование инструментов, которые позволяют быстро получить результат.

🎯 <b>Доступность</b> — по деньгам, пониманию материала и подаче информации.`

	goalMessage = `<b>Наша цель</b>

Научить применять психологические и энергетические инструменты для улучшения жизни и достижения новых результатов, через исследование и исцеление своих граней.`

	completionMessage = `🎉 <b>Спасибо, что рассказал о себе!</b>

Рады, что ты с нами!!! 💜

Твои данные успешно сохранены. Если будут вопросы — пиши администратору.`

	noQuestionsMessage = `Вопросов пока нет. Обратитесь к администратору.`

	photoExpectedMessage = `📷 Пожалуйста, отправьте фото, а не текст.`

	sessionErrorMessage  = `Произошла ошибка. Попробуйте начать сначала: /start`
	questionGoneMessage  = `Вопрос не найден. Попробуйте /start`
	applicantGoneMessage = `Пользователь не найден. Попробуйте /start`
)

// Callback payloads.
const (
	callbackTeamYes      = "team_yes"
	callbackTeamNo       = "team_no"
	callbackChoicePrefix = "choice_"
)

// postAnswerMessages are sent right after the named field is answered,
// before the next question. preQuestionMessages are sent right before the
// question for the named field. Both fire only mid-flow.
var (
	postAnswerMessages = map[string]string{
		"full_name": goalMessage,
	}
	preQuestionMessages = map[string]string{
		"snils": valuesMessage,
	}
)
