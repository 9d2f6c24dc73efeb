package availability

import "fmt"

// Ключи кеша, связанные со слотом

func normalKey(dateKey, slot string) string {
	return fmt.Sprintf("normal_%s_%s", dateKey, slot)
}

func recurringKey(weekday int, slot string) string {
	return fmt.Sprintf("recurring_%d_%s", weekday, slot)
}

func availableTimesKey(dateKey string) string {
	return fmt.Sprintf("available_times_%s", dateKey)
}
