package application

import "fmt"

// FAQCount is the number of question/answer pairs requested per product
const FAQCount = 5

const promptTemplate = `You are an eCommerce assistant. Generate %d helpful FAQ questions and answers for the following product:

Product Name: %s
Product Description: %s

FAQs should be helpful, concise, and in simple language. Format each FAQ as:
Q1: [Question]
A1: [Answer]

Q2: [Question]
A2: [Answer]

etc.`

// BuildPrompt returns the completion instruction for a product.
// Inputs are embedded verbatim and must already be plain text.
func BuildPrompt(productName, productDescription string) string {
	return fmt.Sprintf(promptTemplate, FAQCount, productName, productDescription)
}
