package catalog

// CreateSiteInput входные данные создания сайта (код генерируется)
type CreateSiteInput struct {
	Name    string
	Address string
	Phone   *string
}

// SiteUpdate частичное обновление сайта; nil-поля не трогаются
type SiteUpdate struct {
	Name    *string
	Address *string
	Phone   *string
	Active  *bool
}

func (u SiteUpdate) toMap() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	return set
}

// CreateBookInput входные данные создания книги (инвентарный код генерируется)
type CreateBookInput struct {
	Title      string
	Author     string
	ISBN       *string
	Category   *string
	SiteID     int64
	StockTotal int
}

// BookUpdate частичное обновление книги; nil-поля не трогаются
type BookUpdate struct {
	Title      *string
	Author     *string
	ISBN       *string
	Category   *string
	StockTotal *int
	Active     *bool
}

func (u BookUpdate) toMap() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.ISBN != nil {
		set["isbn"] = *u.ISBN
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.StockTotal != nil {
		set["stock_total"] = *u.StockTotal
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	return set
}

// CreateRoomInput входные данные создания зала/оборудования
type CreateRoomInput struct {
	Name     string
	RoomType string // "SALA" | "EQUIPO"
	SiteID   int64
	Capacity *int
}

// RoomUpdate частичное обновление зала; nil-поля не трогаются
type RoomUpdate struct {
	Name     *string
	RoomType *string
	Capacity *int
	Active   *bool
}

func (u RoomUpdate) toMap() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.RoomType != nil {
		set["room_type"] = *u.RoomType
	}
	if u.Capacity != nil {
		set["capacity"] = *u.Capacity
	}
	if u.Active != nil {
		set["active"] = *u.Active
	}
	return set
}
