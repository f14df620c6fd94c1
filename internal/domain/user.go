package domain

type User struct {
	ID        int64   `db:"id" json:"id"`
	FirstName *string `db:"first_name" json:"first_name"`
	LastName  *string `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	Password  string  `db:"password" json:"-"`
}
