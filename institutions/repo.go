package institutions

type Repo interface {
	Upsert(institution *Institution) error
	Get(id int64) (*Institution, error)
	List(offset, limit int) ([]*Institution, error)
}
