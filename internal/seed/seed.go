// Package seed holds the sample storefront data loaded by the in-memory
// store and the seed-db command.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

// Categories returns the storefront categories with fixed ids; products
// reference them by id.
func Categories() []product.Category {
	return []product.Category{
		{ID: 1, Name: "Xe Tay Ga", Description: "Xe số tự động, tiện lợi đô thị"},
		{ID: 2, Name: "Xe Số", Description: "Xe số côn, tiết kiệm nhiên liệu"},
		{ID: 3, Name: "Phụ Tùng", Description: "Phụ tùng chính hãng"},
		{ID: 4, Name: "Xe Phân Khối Lớn", Description: "Xe PKL, mạnh mẽ"},
	}
}

// Products returns the sample catalog without ids assigned.
func Products() []product.Product {
	return []product.Product{
		{
			Name: "Honda Air Blade 160", Brand: "Honda", CategoryID: 1,
			Price: decimal.NewFromInt(48_990_000), OldPrice: decimal.NewFromInt(57_500_000),
			Description: "Thiết kế thể thao, động cơ eSP+", ImageURL: "/images/airblade160.jpg",
			Stock: 50, Engine: "160cc", Color: "Đỏ, Đen, Xám", Warranty: "3 năm",
		},
		{
			Name: "Yamaha Exciter 155 VVA", Brand: "Yamaha", CategoryID: 2,
			Price:       decimal.NewFromInt(52_490_000),
			Description: "Công nghệ VVA, phanh ABS", ImageURL: "/images/exciter155.jpg",
			Stock: 30, Engine: "155cc", Color: "Xanh GP, Đen, Đỏ", Warranty: "3 năm",
		},
		{
			Name: "Honda Vision 2024", Brand: "Honda", CategoryID: 1,
			Price:       decimal.NewFromInt(32_990_000),
			Description: "Sang trọng, tiết kiệm", ImageURL: "/images/vision2024.jpg",
			Stock: 80, Engine: "110cc", Color: "Bạc, Đen, Nâu", Warranty: "3 năm",
		},
		{
			Name: "Yamaha Janus Premium", Brand: "Yamaha", CategoryID: 1,
			Price:       decimal.NewFromInt(33_500_000),
			Description: "Thiết kế retro độc đáo", ImageURL: "/images/janus.jpg",
			Stock: 45, Engine: "125cc", Color: "Xanh Mint, Vàng, Hồng", Warranty: "3 năm",
		},
		{
			Name: "Nhớt Castrol Power 1 10W-40", Brand: "Castrol", CategoryID: 3,
			Price: decimal.NewFromInt(185_000), OldPrice: decimal.NewFromInt(220_000),
			Description: "Nhớt xe số 4 thì cao cấp", ImageURL: "/images/Spare/nhot-castrol.jpg",
			Stock: 200, Engine: "1L", Warranty: "12 tháng",
		},
		{
			Name: "Lốp Michelin City Grip 80/90-14", Brand: "Michelin", CategoryID: 3,
			Price:       decimal.NewFromInt(420_000),
			Description: "Lốp xe tay ga, độ bám đường tốt", ImageURL: "/images/Spare/lop-michelin.jpg",
			Stock: 150, Engine: "80/90-14", Color: "Đen", Warranty: "6 tháng",
		},
		{
			Name: "Phanh ABS Brembo Z04 cho Exciter", Brand: "Brembo", CategoryID: 3,
			Price:       decimal.NewFromInt(1_250_000),
			Description: "Má phanh hiệu suất cao", ImageURL: "/images/Spare/phanh-brembo.jpg",
			Stock: 80, Color: "Đen", Warranty: "24 tháng",
		},
	}
}

// Coupons returns the sample coupons with validity windows relative to now.
func Coupons(now time.Time) []coupon.Coupon {
	return []coupon.Coupon{
		{
			Code: "WELCOME10", Description: "Giảm 10% cho đơn đầu tiên",
			Percent:           decimal.NewFromInt(10),
			MinOrderAmount:    decimal.NewFromInt(5_000_000),
			MaxDiscountAmount: decimal.NewFromInt(2_000_000),
			StartAt:           now, EndAt: now.AddDate(0, 3, 0),
			UsageLimit: 100, Active: true,
		},
		{
			Code: "SUMMER2024", Description: "Khuyến mãi hè - Giảm 1 triệu",
			Amount:         decimal.NewFromInt(1_000_000),
			MinOrderAmount: decimal.NewFromInt(30_000_000),
			StartAt:        now, EndAt: now.AddDate(0, 2, 0),
			UsageLimit: 50, Active: true,
		},
		{
			Code: "VIP15", Description: "Giảm 15% cho khách VIP",
			Percent:           decimal.NewFromInt(15),
			MinOrderAmount:    decimal.NewFromInt(10_000_000),
			MaxDiscountAmount: decimal.NewFromInt(5_000_000),
			StartAt:           now, EndAt: now.AddDate(1, 0, 0),
			Active: true,
		},
	}
}

// Promotions returns the sample seasonal promotions with validity windows
// relative to now.
func Promotions(now time.Time) []promotion.Promotion {
	return []promotion.Promotion{
		{
			Name:        "Flash Sale Cuối Tuần",
			Description: "Giảm 10% tất cả sản phẩm vào Thứ 7 & Chủ Nhật",
			Percent:     decimal.NewFromInt(10),
			StartAt:     now, EndAt: now.AddDate(0, 6, 0),
			Active: true, Scope: promotion.AllScope(),
		},
		{
			Name:        "Sale Xe Tay Ga",
			Description: "Giảm 15% cho tất cả xe tay ga",
			Percent:     decimal.NewFromInt(15),
			StartAt:     now, EndAt: now.AddDate(0, 3, 0),
			Active: true, Scope: promotion.CategoryScope(1),
		},
		{
			Name:        "Honda Sale",
			Description: "Giảm 12% cho xe Honda",
			Percent:     decimal.NewFromInt(12),
			StartAt:     now, EndAt: now.AddDate(0, 2, 0),
			Active: true, Scope: promotion.BrandScope("Honda"),
		},
	}
}
