package avatar

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS (Достижения)
// Каждое достижение разблокируется ровно один раз и приносит
// фиксированный бонус XPRewardAchievement.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementType представляет тип достижения.
type AchievementType string

const (
	// AchievementFirstLesson - выполнен первый урок.
	AchievementFirstLesson AchievementType = "first_lesson"
	// AchievementPerfectScore - урок или игра пройдены на 100 баллов.
	AchievementPerfectScore AchievementType = "perfect_score"
	// AchievementStreak7 - 7 дней подряд.
	AchievementStreak7 AchievementType = "streak_7"
	// AchievementStreak30 - 30 дней подряд.
	AchievementStreak30 AchievementType = "streak_30"
	// AchievementLevel5 - достигнут 5 уровень.
	AchievementLevel5 AchievementType = "level_5"
	// AchievementLevel10 - достигнут 10 уровень.
	AchievementLevel10 AchievementType = "level_10"
	// AchievementEarlyBird - вход до 7 утра.
	AchievementEarlyBird AchievementType = "early_bird"
	// AchievementNightOwl - вход после полуночи.
	AchievementNightOwl AchievementType = "night_owl"
)

// AchievementDefinition описывает достижение для каталога и UI.
type AchievementDefinition struct {
	Type        AchievementType
	Name        string
	Description string
	Emoji       string
}

// GetAchievementDefinitions возвращает все определения достижений.
func GetAchievementDefinitions() []AchievementDefinition {
	return []AchievementDefinition{
		{AchievementFirstLesson, "First Lesson", "Completed your first lesson", "🎯"},
		{AchievementPerfectScore, "Perfect Score", "Scored 100 on a lesson or game", "💯"},
		{AchievementStreak7, "Week of Fire", "7 days in a row", "🔥"},
		{AchievementStreak30, "Iron Will", "30 days in a row", "💪"},
		{AchievementLevel5, "Apprentice", "Reached level 5", "📚"},
		{AchievementLevel10, "Money Master", "Reached level 10", "🧙"},
		{AchievementEarlyBird, "Early Bird", "Logged in before 7 AM", "🐦"},
		{AchievementNightOwl, "Night Owl", "Logged in after midnight", "🦉"},
	}
}

// GetAchievementDefinition возвращает определение достижения по типу.
func GetAchievementDefinition(t AchievementType) (AchievementDefinition, bool) {
	for _, def := range GetAchievementDefinitions() {
		if def.Type == t {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}

// IsValidAchievement проверяет, что идентификатор достижения известен каталогу.
func IsValidAchievement(t AchievementType) bool {
	_, ok := GetAchievementDefinition(t)
	return ok
}
