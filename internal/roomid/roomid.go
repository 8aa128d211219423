// Package roomid 產生和驗證辯論房間的分享代碼。
//
// 代碼由 6 個大寫英數字符組成（36 種符號），在客戶端產生時
// 不做全域唯一性檢查，碰撞由資料庫的唯一索引擋下。
package roomid

import (
	"math/rand/v2"
	"strings"
)

// Alphabet 房間代碼的固定字符集
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length 房間代碼的固定長度
const Length = 6

// Generate 產生一個新的房間代碼
// 每個字符獨立均勻地從字符集中抽取，不保證全域唯一
func Generate() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return string(b)
}

// Valid 檢查代碼長度與字符集是否合法
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
