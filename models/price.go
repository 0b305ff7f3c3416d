package models

import (
	"sort"
	"time"
)

// PricePoint 单个交易日的行情数据
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries 按日期升序排列的行情序列，缺失的交易日直接缺席，不做空值填充
type PriceSeries []PricePoint

// Closes 提取收盘价序列
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i := range s {
		closes[i] = s[i].Close
	}
	return closes
}

// Volumes 提取成交量序列
func (s PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(s))
	for i := range s {
		volumes[i] = s[i].Volume
	}
	return volumes
}

// Latest 返回最近一个交易日，序列为空时返回nil
func (s PriceSeries) Latest() *PricePoint {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// SortAscending 按日期升序排序
func (s PriceSeries) SortAscending() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})
}

// FilterUpTo 过滤掉晚于cutoff的交易日
// 所有指标计算都要求序列已按目标市场时区截止到当日，否则指标会锚定到错误的时间点
func (s PriceSeries) FilterUpTo(cutoff time.Time) PriceSeries {
	filtered := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if !p.Date.After(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
