package entity

type City struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	State   string `db:"state"`
	Country string `db:"country"`
}

type Language struct {
	ID   int64  `db:"id"`
	Name string `db:"name"` // unique
}

type Format struct {
	ID   int64  `db:"id"`
	Name string `db:"name"` // 2D, 3D, IMAX, etc. (unique)
}
