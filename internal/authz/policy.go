// Package authz はアクセスポリシーの判定を提供する。
package authz

import "github.com/hitoshi/taskdeck/internal/model"

// IsAdmin は呼び出し元が設定された管理者グループに所属しているかを返す。
func IsAdmin(claims model.Claims, adminGroup string) bool {
	return claims.InGroup(adminGroup)
}

// CanModify は呼び出し元がタスクを変更できるかを返す。
// 管理者、または呼び出し元のメールアドレスが担当者に含まれる場合に許可する。
func CanModify(claims model.Claims, assignees model.Assignees, adminGroup string) bool {
	if IsAdmin(claims, adminGroup) {
		return true
	}
	return assignees.Contains(claims.Email)
}
