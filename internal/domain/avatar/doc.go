// Package avatar содержит движок прогрессии FinEdu - доменную модель
// игрового аватара и правила его изменения.
//
// Пакет определяет:
//
//   - Сущность Avatar: уровень, XP, здоровье, серия дней, достижения, инвентарь
//   - Value Objects: XP, Level, Health
//   - Операции движка: AddXP, UpdateHealth, UpdateStreak, AddAchievement,
//     CompleteLesson/CompleteTask/CompleteGame, UseHealthPotion
//   - Уведомления (Notification): LevelUp, XPGained, StreakBroken и др.
//   - Интерфейсы репозиториев: Repository, LeaderboardCache
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы реализуются в infrastructure
//  3. Чистые синхронные переходы: операция читает аватар, мутирует его и
//     возвращает уведомления; никакого I/O и внутренней конкурентности
//
// # Каскады
//
// Начисление XP может повысить уровень, что разблокирует достижение,
// что начисляет бонусный XP. Каскад выполняется вложенными вызовами в
// одной логической транзакции - не через event bus - поэтому результат
// детерминирован и атомарен:
//
//	a, _ := NewAvatar(uuid.New().String(), userID)
//	notifs, err := a.CompleteLesson(LessonResult{Score: 100, XPReward: 10}, time.Now())
//	// notifs содержит XPGained, AchievementUnlocked, вложенные бонусы и т.д.
//
// # Правило серии дней
//
// Серия считается по календарным суткам UTC (время суток обнуляется),
// а не по скользящему 24-часовому окну. Разница в 1 день продолжает
// серию, больше одного дня - начинает новую.
//
// # Инварианты
//
//   - level == floor(xp/100) + 1, но не ниже 1
//   - 0 <= health <= 100
//   - maxStreak >= streak
//   - достижения без дубликатов, инвентарь без записей с количеством <= 0
package avatar
