package store

// Seed returns the snippets every fresh server starts with (ids 1-8).
func Seed() []Snippet {
	return []Snippet{
		{ID: 1, Language: "Python", Code: "print('Hello, World!')"},
		{ID: 2, Language: "Python", Code: "def add(a, b):\n    return a + b"},
		{ID: 3, Language: "Python", Code: "class Circle:\n    def __init__(self, radius):\n        self.radius = radius\n\n    def area(self):\n        return 3.14 * self.radius ** 2"},
		{ID: 4, Language: "JavaScript", Code: "console.log('Hello, World!');"},
		{ID: 5, Language: "JavaScript", Code: "function multiply(a, b) {\n    return a * b;\n}"},
		{ID: 6, Language: "JavaScript", Code: "const square = num => num * num;"},
		{ID: 7, Language: "Java", Code: "public class HelloWorld {\n    public static void main(String[] args) {\n        System.out.println(\"Hello, World!\");\n    }\n}"},
		{ID: 8, Language: "Java", Code: "public class Rectangle {\n    private int width;\n    private int height;\n\n    public Rectangle(int width, int height) {\n        this.width = width;\n        this.height = height;\n    }\n\n    public int getArea() {\n        return width * height;\n    }\n}"},
	}
}

// NewSeeded returns a Store pre-populated with Seed().
func NewSeeded() *Store {
	st, err := New(Seed()...)
	if err != nil {
		// Seed() is static and valid.
		panic(err)
	}
	return st
}
