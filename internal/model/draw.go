package model

import "fmt"

// DrawRecord 单期开奖记录（百位、十位、个位）
type DrawRecord struct {
	Period  string // 期号，4-7 位数字
	Numbers Digits // 开奖号码
}

// Digits 有序的三位号码
type Digits [3]int

// String 以 "123" 形式输出
func (d Digits) String() string {
	return fmt.Sprintf("%d%d%d", d[0], d[1], d[2])
}

// Valid 每一位都在 0-9 之间
func (d Digits) Valid() bool {
	for _, n := range d {
		if n < 0 || n > 9 {
			return false
		}
	}
	return true
}
