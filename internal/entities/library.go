package entities

// User roles.
const (
	RoleAdmin   = 1
	RoleRegular = 2
)

// Bookshelf read states.
const (
	ReadStatusUnread   = 0
	ReadStatusWantRead = 1
	ReadStatusReading  = 2
	ReadStatusFinished = 3
)

// Ranking bounds: half-star granularity over 1-5 stars.
const (
	RankingMin = 0
	RankingMax = 10
)

// User is an account record. Timestamps are Unix milliseconds, matching the
// values clients already store; created_time is written once and never updated.
type User struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Username      string `gorm:"uniqueIndex;size:20" json:"username"`
	Password      string `gorm:"size:255" json:"-"` // digest, never plaintext
	Nickname      string `gorm:"size:255" json:"nickname"`
	Truename      string `gorm:"size:255" json:"truename"`
	Avatar        string `gorm:"size:255" json:"avatar"`
	Role          int    `gorm:"not null" json:"role"`
	LastLoginTime int64  `gorm:"column:last_login_time" json:"last_login_time"`
	LastLoginIP   string `gorm:"column:last_login_ip;size:255" json:"last_login_ip"`
	LoginCount    int    `gorm:"default:0" json:"login_count"`
	CreatedTime   int64  `gorm:"column:created_time" json:"created_time"`
	CreatedIP     string `gorm:"column:created_ip;size:255" json:"created_ip"`
	UpdatedTime   int64  `gorm:"column:updated_time" json:"updated_time"`
}

// Book holds descriptive metadata. All douban-sourced fields are freeform
// strings (pages and price arrive as text like "302" or "23.00元").
type Book struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:512;not null" json:"title"`
	Pic         string `gorm:"size:2048" json:"pic"`
	Author      string `gorm:"index;size:255" json:"author"`
	Publisher   string `gorm:"size:255" json:"publisher"`
	Translator  string `gorm:"size:255" json:"translator"`
	Pubdate     string `gorm:"size:255" json:"pubdate"`
	Pages       string `gorm:"size:255" json:"pages"`
	Price       string `gorm:"size:255" json:"price"`
	Binding     string `gorm:"size:255" json:"binding"`
	Series      string `gorm:"size:255" json:"series"`
	ISBN        string `gorm:"column:isbn;index;size:255" json:"isbn"`
	CreatedTime int64  `gorm:"column:created_time" json:"created_time"`
	UpdatedTime int64  `gorm:"column:updated_time" json:"updated_time"`
}

// Bookshelf links a user to a book with per-user reading state. Rows are owned
// exclusively by UserID; lookups are always scoped by it.
type Bookshelf struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	UserID      uint  `gorm:"column:user_id;index;not null" json:"user_id"`
	BookID      uint  `gorm:"column:book_id;index;not null" json:"book_id"`
	ReadStatus  int   `gorm:"default:0" json:"read_status"`
	Ranking     int   `gorm:"default:0" json:"ranking"`
	CreatedTime int64 `gorm:"column:created_time" json:"created_time"`
	UpdatedTime int64 `gorm:"column:updated_time" json:"updated_time"`
}

// Review is an independent entity referencing Book and User. The useful and
// useless counters only ever increment.
type Review struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookID      uint   `gorm:"column:book_id;index;not null" json:"book_id"`
	UserID      uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	Useful      int    `gorm:"default:0" json:"useful"`
	Useless     int    `gorm:"default:0" json:"useless"`
	CreatedTime int64  `gorm:"column:created_time" json:"created_time"`
	UpdatedTime int64  `gorm:"column:updated_time" json:"updated_time"`
}

// ShelfBook is the denormalized bookshelf listing row: shelf state joined with
// the book's descriptive fields. A deleted book leaves the book columns zero.
type ShelfBook struct {
	ID          uint   `json:"id"`
	BookID      uint   `json:"book_id"`
	UserID      uint   `json:"user_id"`
	ReadStatus  int    `json:"read_status"`
	Ranking     int    `json:"ranking"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
	Title       string `json:"title"`
	Pic         string `json:"pic"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Translator  string `json:"translator"`
	Pubdate     string `json:"pubdate"`
	Pages       string `json:"pages"`
	Price       string `json:"price"`
	Binding     string `json:"binding"`
	Series      string `json:"series"`
	ISBN        string `json:"isbn"`
}

// BookReview is the denormalized review row: review body and counters joined
// with book metadata and the reviewer's public identity.
type BookReview struct {
	ID          uint   `json:"id"`
	BookID      uint   `json:"book_id"`
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Useful      int    `json:"useful"`
	Useless     int    `json:"useless"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
	BookTitle   string `json:"book_title"`
	Pic         string `json:"pic"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Translator  string `json:"translator"`
	Pubdate     string `json:"pubdate"`
	Pages       string `json:"pages"`
	Price       string `json:"price"`
	Binding     string `json:"binding"`
	Series      string `json:"series"`
	ISBN        string `json:"isbn"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Bookshelf) TableName() string {
	return "bookshelves"
}

func (Review) TableName() string {
	return "reviews"
}
