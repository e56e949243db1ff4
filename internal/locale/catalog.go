package locale

// Message templates may carry <b>, <join> and <player> markers; the broadcast
// renderer strips them into Telegram entities. Placeholders are plain fmt
// verbs, documented per key where the order matters.
var catalogs = map[Locale]map[string]string{
	English: {
		"message.start": "<b>Spot the Spy</b>\n\n" +
			"A party game of bluffing and deduction. Everyone gets a location, " +
			"except one player: the spy. Talk, ask questions, find the impostor.",
		"message.language.choose": "Choose your language:",
		"answer.language.same":    "This language is already selected",
		"message.choose_device":   "How do you want to play?",

		"message.single.explain": "<b>Single device</b>\n\n" +
			"You all share one phone. Each player looks at their role in secret " +
			"and passes the device on. When everyone has seen their role, discuss " +
			"and vote out the spy.",
		"message.single.configure": "How many players are there?",
		// 1: seat number, 2: player amount
		"message.single.prepare": "Pass the device to <b>player %d of %d</b>.\n\n" +
			"Tap the button below when nobody else can see the screen.",
		"message.single.role.spy": "You are the <b>spy</b>.\n\n" +
			"You don't know the location. Blend in and figure it out before " +
			"the others find you.",
		// 1: secret word
		"message.single.role.citizen": "The location is <b>%s</b>.\n\n" +
			"One of you is a spy. Remember the location and pass the device on.",
		"message.single.discuss": "Everyone has seen their role.\n\n" +
			"Discuss, ask questions and figure out who the spy is!",
		// 1: secret word, 2: spy seat number
		"message.single.finish": "The location was <b>%s</b>.\n\n" +
			"The spy was <b>player %d</b>. Well played!",

		"message.multi.explain": "<b>Multiple devices</b>\n\n" +
			"Everyone plays from their own phone. Create a game, share the " +
			"invite link or QR code, and start once everyone has joined.",
		"message.multi.configure": "How many players will join?",
		// 1: player list, 2: joined count, 3: player amount
		"message.multi.recruit": "<b>Spot the Spy</b>\n\n%s\n\n" +
			"Players: %d/%d\n\n<join>Tap here to join the game</join> or scan the QR code.",
		// 1: seat number, 2: first name
		"message.multi.recruit.player":      "%d. <player>%s</player>",
		"message.multi.recruit.player.host": "%d. <player>%s</player> ★",
		"message.multi.role.spy": "You are the <b>spy</b>.\n\n" +
			"You don't know the location. Blend in, ask carefully and guess it " +
			"before the others unmask you.",
		// 1: secret word
		"message.multi.role.citizen": "The location is <b>%s</b>.\n\n" +
			"One player is a spy and doesn't know it. Find them.",
		// 1: secret word, 2: spy first name
		"message.multi.finish": "The location was <b>%s</b>.\n\n" +
			"The spy was <player>%s</player>. Play again?",
		"message.multi.stop":  "The host has stopped the game.",
		"message.multi.leave": "You left the game.",

		"message.join.not_found":       "This game no longer exists.",
		"message.join.already_started": "This game has already started.",
		"message.join.already_in_game": "You are already in a game. Leave it first.",
		"message.join.full":            "This game is full.",
		"answer.too_few_players":       "Not enough players to start yet",
		"message.error":                "Something went wrong. Please try again.",

		"button.play":          "Play",
		"button.language":      "Language",
		"button.back":          "‹ Back",
		"button.menu":          "Menu",
		"button.device.single": "One device",
		"button.device.multi":  "Multiple devices",
		"button.next":          "Got it",
		"button.create":        "Create game",
		"button.start":         "Start game",
		"button.view_role":     "View my role",
		"button.proceed":       "Next player",
		"button.finish":        "Finish game",
		"button.play_again":    "Play again",
		"button.leave":         "Leave game",
	},

	Ukrainian: {
		"message.start": "<b>Знайди шпигуна</b>\n\n" +
			"Гра на блеф і дедукцію. Усі знають локацію, крім одного гравця — " +
			"шпигуна. Спілкуйтеся, ставте питання, знайдіть самозванця.",
		"message.language.choose": "Оберіть мову:",
		"answer.language.same":    "Цю мову вже обрано",
		"message.choose_device":   "Як будете грати?",

		"message.single.explain": "<b>Один пристрій</b>\n\n" +
			"Ви граєте з одного телефона. Кожен гравець таємно дивиться свою " +
			"роль і передає пристрій далі. Коли всі подивились, обговорюйте й " +
			"шукайте шпигуна.",
		"message.single.configure": "Скільки гравців?",
		"message.single.prepare": "Передайте пристрій <b>гравцю %d з %d</b>.\n\n" +
			"Натисніть кнопку, коли ніхто інший не бачить екран.",
		"message.single.role.spy": "Ви — <b>шпигун</b>.\n\n" +
			"Ви не знаєте локацію. Не видавайте себе і спробуйте її вгадати.",
		"message.single.role.citizen": "Локація — <b>%s</b>.\n\n" +
			"Серед вас шпигун. Запам'ятайте локацію та передайте пристрій далі.",
		"message.single.discuss": "Усі побачили свої ролі.\n\n" +
			"Обговорюйте, ставте питання та знайдіть шпигуна!",
		"message.single.finish": "Локація була <b>%s</b>.\n\n" +
			"Шпигуном був <b>гравець %d</b>. Гарна гра!",

		"message.multi.explain": "<b>Кілька пристроїв</b>\n\n" +
			"Кожен грає зі свого телефона. Створіть гру, поділіться посиланням " +
			"або QR-кодом і починайте, коли всі приєднаються.",
		"message.multi.configure": "Скільки гравців приєднається?",
		"message.multi.recruit": "<b>Знайди шпигуна</b>\n\n%s\n\n" +
			"Гравці: %d/%d\n\n<join>Натисніть, щоб приєднатися</join> або відскануйте QR-код.",
		"message.multi.recruit.player":      "%d. <player>%s</player>",
		"message.multi.recruit.player.host": "%d. <player>%s</player> ★",
		"message.multi.role.spy": "Ви — <b>шпигун</b>.\n\n" +
			"Ви не знаєте локацію. Поводьтеся обережно та вгадайте її раніше, " +
			"ніж вас викриють.",
		"message.multi.role.citizen": "Локація — <b>%s</b>.\n\n" +
			"Один із гравців — шпигун і не знає її. Знайдіть його.",
		"message.multi.finish": "Локація була <b>%s</b>.\n\n" +
			"Шпигуном був(ла) <player>%s</player>. Зіграємо ще?",
		"message.multi.stop":  "Хост зупинив гру.",
		"message.multi.leave": "Ви покинули гру.",

		"message.join.not_found":       "Цієї гри вже не існує.",
		"message.join.already_started": "Ця гра вже почалася.",
		"message.join.already_in_game": "Ви вже у грі. Спершу покиньте її.",
		"message.join.full":            "У цій грі вже немає місць.",
		"answer.too_few_players":       "Замало гравців, щоб почати",
		"message.error":                "Щось пішло не так. Спробуйте ще раз.",

		"button.play":          "Грати",
		"button.language":      "Мова",
		"button.back":          "‹ Назад",
		"button.menu":          "Меню",
		"button.device.single": "Один пристрій",
		"button.device.multi":  "Кілька пристроїв",
		"button.next":          "Зрозуміло",
		"button.create":        "Створити гру",
		"button.start":         "Почати гру",
		"button.view_role":     "Моя роль",
		"button.proceed":       "Наступний гравець",
		"button.finish":        "Завершити гру",
		"button.play_again":    "Зіграти ще",
		"button.leave":         "Покинути гру",
	},
}

// secretWords maps game service word keys to localized display words.
var secretWords = map[Locale]map[string]string{
	English: {
		"airport":    "Airport",
		"beach":      "Beach",
		"casino":     "Casino",
		"circus":     "Circus",
		"hospital":   "Hospital",
		"restaurant": "Restaurant",
		"school":     "School",
		"submarine":  "Submarine",
		"theater":    "Theater",
		"train":      "Night train",
	},
	Ukrainian: {
		"airport":    "Аеропорт",
		"beach":      "Пляж",
		"casino":     "Казино",
		"circus":     "Цирк",
		"hospital":   "Лікарня",
		"restaurant": "Ресторан",
		"school":     "Школа",
		"submarine":  "Підводний човен",
		"theater":    "Театр",
		"train":      "Нічний потяг",
	},
}
