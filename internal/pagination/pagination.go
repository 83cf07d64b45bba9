package pagination

// Page возвращает страницу pageNumber (нумерация с единицы) размера
// pageSize. Выход за границы не зажимается — это забота вызывающего;
// индексы лишь приводятся к допустимым, чтобы вернуть пустую страницу
// вместо паники. Работает одинаково для любых списков: результаты
// поиска стран и история сообщений режутся одной функцией.
func Page[T any](items []T, pageNumber, pageSize int) []T {
	start := (pageNumber - 1) * pageSize
	end := pageNumber * pageSize

	if start < 0 {
		start = 0
	}
	if end > len(items) {
		end = len(items)
	}
	if start >= end {
		return nil
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// PageCount — число страниц, минимум одна
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
