package postgres

type scannable interface {
	Scan(dest ...any) error
}
