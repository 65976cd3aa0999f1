package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Journal message keys. The key is the English text; other languages are
// registered in the default catalog below. Counts are passed through
// plainArgs and take %s.
const (
	msgColumnsLoaded     = "OK: loaded columns from row %s: %s"
	msgNoHeaderRow       = "Could not recognize the header row."
	msgFileMissing       = "File not found. Check the path."
	msgReadFailed        = "Error reading Excel: %v"
	msgNoInputFile       = "Input file is not selected."
	msgNoOutputPath      = "Output path is not selected."
	msgNoFilterColumn    = "Filter column is not selected."
	msgHeaderUnknown     = "Header row is not determined. Select the file again."
	msgColumnNotFound    = "Column not found in file: %s"
	msgNoRequiredColumns = "None of the columns found: %s"
	msgMissingColumns    = "Missing columns: %s"
	msgNothingMatched    = "Nothing matched the filter. Created a file with the header only: %s"
	msgRowsSaved         = "Saved %s rows to file: %s"
	msgFileLocked        = "Could not save: the file is open in Excel/LibreOffice. Close it and retry."
	msgFilterFailed      = "Filter/save error: %v"
)

func init() {
	ru := []struct{ key, text string }{
		{msgColumnsLoaded, "OK: Загружены столбцы из строки %s: %s"},
		{msgNoHeaderRow, "Не удалось распознать строку заголовков."},
		{msgFileMissing, "Файл не найден. Проверь путь."},
		{msgReadFailed, "Ошибка при чтении Excel: %v"},
		{msgNoInputFile, "Не выбран входной файл."},
		{msgNoOutputPath, "Не выбран путь для сохранения результата."},
		{msgNoFilterColumn, "Не выбран столбец для фильтра."},
		{msgHeaderUnknown, "Не определена строка заголовков. Выберите файл заново."},
		{msgColumnNotFound, "В файле не найден столбец: %s"},
		{msgNoRequiredColumns, "Не найдено ни одной из колонок: %s"},
		{msgMissingColumns, "Отсутствуют колонки: %s"},
		{msgNothingMatched, "Под критерий ничего не подошло. Создан файл только с заголовком: %s"},
		{msgRowsSaved, "Сохранено %s строк в файл: %s"},
		{msgFileLocked, "Не удалось сохранить: файл открыт в Excel/LibreOffice. Закройте его и повторите."},
		{msgFilterFailed, "Ошибка фильтрации/сохранения: %v"},
	}
	for _, m := range ru {
		if err := message.SetString(language.Russian, m.key, m.text); err != nil {
			panic(err)
		}
	}
}
