package seed

import "github.com/shopspring/decimal"

type categorySeed struct {
	Name        string
	Slug        string
	Description string
	Image       string
	// 親カテゴリのslug（無ければルート）
	ParentSlug string
}

type productSeed struct {
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	Image        string
	CategorySlug string
}

const (
	imgFir    = "https://images.unsplash.com/photo-1512389142860-9c449e58a543?w=800"
	imgForest = "https://images.unsplash.com/photo-1482517967863-00e15c9b44be?w=800"
	imgTree   = "https://images.unsplash.com/photo-1606813907291-d86efa9b94db?w=800"
	imgStand  = "https://images.unsplash.com/photo-1576086213369-97a306d3655b?w=800"
)

// 親→子の順に並べる
var categories = []categorySeed{
	{Name: "Живые ёлки", Slug: "zhivye-elki", Description: "Пихта Нордмана (срезанная)", Image: imgFir},
	{Name: "Подставки и аксессуары", Slug: "podstavki-aksessuary", Description: "Подставки и аксессуары для ёлок", Image: imgStand},
	{Name: "Услуги", Slug: "uslugi", Description: "Услуги по установке и утилизации ёлок", Image: imgForest},

	{Name: "1,0-1,2м", Slug: "elki-1-0-1-2", Description: "Ёлки высотой от 1 до 1.2 метра", ParentSlug: "zhivye-elki"},
	{Name: "1,2-1,5м", Slug: "elki-1-2-1-5", Description: "Ёлки высотой от 1.2 до 1.5 метра", ParentSlug: "zhivye-elki"},
	{Name: "1,5-1,7м", Slug: "elki-1-5-1-7", Description: "Ёлки высотой от 1.5 до 1.7 метра", ParentSlug: "zhivye-elki"},
	{Name: "1,7-2,0м", Slug: "elki-1-7-2-0", Description: "Ёлки высотой от 1.7 до 2.0 метра", ParentSlug: "zhivye-elki"},
	{Name: "2,0-2,2м", Slug: "elki-2-0-2-2", Description: "Ёлки высотой от 2.0 до 2.2 метра", ParentSlug: "zhivye-elki"},
	{Name: "2,2-2,5м", Slug: "elki-2-2-2-5", Description: "Ёлки высотой от 2.2 до 2.5 метра", ParentSlug: "zhivye-elki"},
	{Name: "2,5-3,0м", Slug: "elki-2-5-3-0", Description: "Ёлки высотой от 2.5 до 3.0 метра", ParentSlug: "zhivye-elki"},
}

// ёлка одной высоты
func tree(height, slugHeight, note string, price int64, image, categorySlug string) productSeed {
	return productSeed{
		Name:         "Живая датская ёлка (пихта Нордмана, срезанная) " + height + "м",
		Slug:         "zhivaya-datskaya-elka-" + slugHeight + "m",
		Description:  "Живая датская ёлка пихта Нордмана, срезанная. Высота " + height + " метра. " + note,
		Price:        decimal.NewFromInt(price),
		Image:        image,
		CategorySlug: categorySlug,
	}
}

var products = []productSeed{
	tree("1,0-1,2", "1-0-1-2", "Идеальна для небольших помещений.", 187, imgFir, "elki-1-0-1-2"),
	tree("1,2-1,5", "1-2-1-5", "Отличный выбор для дома.", 247, imgForest, "elki-1-2-1-5"),
	tree("1,5-1,7", "1-5-1-7", "Великолепная для гостиной.", 315, imgTree, "elki-1-5-1-7"),
	tree("1,7-2,0", "1-7-2-0", "Впечатляющий размер.", 408, imgStand, "elki-1-7-2-0"),
	tree("2,0-2,2", "2-0-2-2", "Для просторных помещений.", 519, imgFir, "elki-2-0-2-2"),
	tree("2,2-2,5", "2-2-2-5", "Величественная красота.", 638, imgForest, "elki-2-2-2-5"),
	tree("2,5-3,0", "2-5-3-0", "Максимальный размер.", 774, imgTree, "elki-2-5-3-0"),
	{
		Name:         "Жидкость для срезанных елей/пихт Bona Forte 285мл",
		Slug:         "zhidkost-dlya-srezannyh-eley-piht-bona-forte-285ml",
		Description:  "Жидкость Bona Forte предназначена для продления жизни новогодних елок, пихт, туй.",
		Price:        decimal.NewFromInt(30),
		Image:        imgTree,
		CategorySlug: "podstavki-aksessuary",
	},
	{
		Name:         "Подставка для ели Вулкан-2, 12см",
		Slug:         "podstavka-dlya-eli-vulkan-2-12sm",
		Description:  "Надёжная подставка для ёлки Вулкан-2 диаметром 12 см.",
		Price:        decimal.NewFromInt(60),
		Image:        imgStand,
		CategorySlug: "podstavki-aksessuary",
	},
	{
		Name:         "Подставка для ели Вулкан-XXL, 16см",
		Slug:         "podstavka-dlya-eli-vulkan-xxl-16sm",
		Description:  "Большая подставка для ёлки Вулкан-XXL диаметром 16 см. Для высоких и крупных ёлок.",
		Price:        decimal.NewFromInt(260),
		Image:        imgFir,
		CategorySlug: "podstavki-aksessuary",
	},
	{
		Name:         "Ветки живой датской пихты (лапник Нордмана) 5 кг",
		Slug:         "vetki-zhivoy-datskoy-pihty-lapnik-nordmana-5kg",
		Description:  "Свежие ветки живой датской пихты Нордмана. Идеальны для декорации. Вес 5 кг.",
		Price:        decimal.NewFromInt(45),
		Image:        imgForest,
		CategorySlug: "podstavki-aksessuary",
	},
}
