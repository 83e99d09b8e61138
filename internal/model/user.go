package model

// UserProfile はIDプロバイダからミラーされたユーザープロファイルを表す。
// アカウント確認時に1度だけ作成され、本システムからは削除されない。
// リクエスト時点のロール・有効状態の真実源はIDプロバイダであり、
// このミラーではない。
type UserProfile struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Claims は検証済みトークンから導出されるリクエスト毎の呼び出し元属性。
// グループ所属の文字列/リスト両形式の正規化は認証境界で1度だけ行われ、
// ここでは常に固定の形を持つ。永続化されない。
type Claims struct {
	Email  string
	Groups []string
}

// InGroup は指定グループに所属しているかを返す。
func (c Claims) InGroup(name string) bool {
	for _, g := range c.Groups {
		if g == name {
			return true
		}
	}
	return false
}
