package entity

type Theatre struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
	CityID  int64  `db:"city_id"`
	Contact string `db:"contact"`
}
