package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect описывает различия между поддерживаемыми СУБД
type Dialect struct {
	// Name имя диалекта в конфигурации (DB_DRIVER)
	Name string
	// Driver имя database/sql драйвера
	Driver string
	// Goose диалект миграций goose
	Goose string
	// numbered плейсхолдеры вида $1, $2 вместо ?
	numbered bool
	// lower функция приведения к нижнему регистру с поддержкой Unicode
	lower string
	// rowLock суффикс блокировки строки; SQLite сериализует запись сам
	rowLock string
}

// Поддерживаемые диалекты
var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite", Goose: "sqlite3", lower: unicodeLowerFunc}
	Postgres = Dialect{Name: "postgres", Driver: "pgx", Goose: "postgres", numbered: true, lower: "LOWER", rowLock: " FOR UPDATE"}
)

// DialectByName возвращает диалект по имени из конфигурации
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Placeholder возвращает плейсхолдер для n-го (с 1) аргумента
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Lower оборачивает выражение в функцию нижнего регистра.
// Встроенный LOWER в SQLite складывает только ASCII, поэтому для него
// используется зарегистрированная unicode_lower.
func (d Dialect) Lower(expr string) string {
	return d.lower + "(" + expr + ")"
}

// forUpdate добавляет к SELECT блокировку выбранных строк до конца транзакции
func (d Dialect) forUpdate(query string) string {
	return query + d.rowLock
}

// isUniqueViolation сообщает, что err вызван нарушением UNIQUE/PRIMARY KEY
func (d Dialect) isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
